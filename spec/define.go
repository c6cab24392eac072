package spec

// Kind 是 puzzle 種類的判別字串（registry 的 key）。
type Kind string

const (
	KindPhrase Kind = "phrase"
	KindCode   Kind = "code"
	KindQuiz   Kind = "quiz"
	KindOrder  Kind = "order"
	KindMatch  Kind = "match"
	KindGroup  Kind = "group"
	KindChoice Kind = "choice"
	KindCloze  Kind = "cloze"
	KindList   Kind = "list"
)

// PID 是 pack 的唯一識別（catalog 內唯一）。
type PID uint

// Match 互動模式。
const (
	MatchModeColumns  = "columns"
	MatchModeDragDrop = "dragdrop"
)
