package app

import "context"

// Component 抽象任何「可啟動 / 可關閉」的長生命週期元件。
//   - Run() 阻塞到元件停止為止（正常或錯誤）。
//   - Shutdown(ctx) 要求優雅關閉；實作方應尊重 ctx 的 deadline/cancel。
//
// 這個 repo 裡的實例只有 HTTP server，但抽象留給之後的
// background worker（例如 session 逾時回收）。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}
