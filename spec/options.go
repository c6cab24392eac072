package spec

// Options 是執行期的 instance options，caller 端覆寫設定檔層的預設。
//
// 欄位使用 *bool 三態：nil 表示「未指定、向外層繼承」，
// false 是真正的覆寫（MergeOptions 的精度要求）。
type Options struct {
	// AggregateOnly 抑制逐元素的對錯標記（外層靜默計分多個 puzzle 時用）。
	AggregateOnly *bool `yaml:"aggregate_only,omitempty" json:"aggregate_only,omitempty"`

	// BlockUntilSolved 把評估失敗轉成 hold（puzzle 留在場上）而非終局失敗。
	BlockUntilSolved *bool `yaml:"block_until_solved,omitempty" json:"block_until_solved,omitempty"`

	// MultiSelect 僅 quiz 使用。
	MultiSelect *bool `yaml:"multi_select,omitempty" json:"multi_select,omitempty"`

	// ResetOnFail 控制 block 失敗後是否清除/復原使用者的作答（預設 true）。
	ResetOnFail *bool `yaml:"reset_on_fail,omitempty" json:"reset_on_fail,omitempty"`

	Layout *LayoutSetting `yaml:"layout,omitempty" json:"layout,omitempty"`
}

// MergeOptions 回傳 base 疊上 over 的結果；over 的非 nil 欄位獲勝。
// 優先序（step > list > caller）由呼叫端以多次 Merge 疊出。
func MergeOptions(base, over Options) Options {
	out := base
	if over.AggregateOnly != nil {
		out.AggregateOnly = over.AggregateOnly
	}
	if over.BlockUntilSolved != nil {
		out.BlockUntilSolved = over.BlockUntilSolved
	}
	if over.MultiSelect != nil {
		out.MultiSelect = over.MultiSelect
	}
	if over.ResetOnFail != nil {
		out.ResetOnFail = over.ResetOnFail
	}
	if over.Layout != nil {
		out.Layout = over.Layout
	}
	return out
}

func (o Options) Aggregate() bool {
	return o.AggregateOnly != nil && *o.AggregateOnly
}

func (o Options) Block() bool {
	return o.BlockUntilSolved != nil && *o.BlockUntilSolved
}

func (o Options) Multi() bool {
	return o.MultiSelect != nil && *o.MultiSelect
}

// Reset 預設 true：未指定時 block 失敗會清除作答。
func (o Options) Reset() bool {
	return o.ResetOnFail == nil || *o.ResetOnFail
}

// Bool 是建立 *bool 欄位的便利函式。
func Bool(v bool) *bool { return &v }
