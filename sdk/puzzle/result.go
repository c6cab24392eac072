package puzzle

// Result 是一次評估（evaluation attempt）的結果。
//
// 三種形態：
//   - {Ok:true}：終局成功。
//   - {Ok:false}：終局失敗（caller 可視為 puzzle failed）。
//   - {Hold:true}：非終局；評估被拒絕但 puzzle 保持互動
//     （block-until-solved 模式）。
//
// 答錯永遠是資料、不是 error。
type Result struct {
	Ok     bool   `json:"ok"`
	Hold   bool   `json:"hold,omitempty"`
	Reason string `json:"reason,omitempty"`
	Detail any    `json:"detail,omitempty"`
}

// 失敗原因。
const (
	ReasonCancel     = "cancel"
	ReasonWrong      = "wrong"
	ReasonIncomplete = "incomplete"
)

func Pass(detail any) Result {
	return Result{Ok: true, Detail: detail}
}

func Fail(reason string, detail any) Result {
	return Result{Ok: false, Reason: reason, Detail: detail}
}

// Hold 回傳非終局結果：puzzle 留在場上等待下一次嘗試。
func Hold() Result {
	return Result{Hold: true}
}

// Terminal 回報此結果是否終局（一經送達即不得再有後續 resolution）。
func (r Result) Terminal() bool {
	return !r.Hold
}
