package netsvr

import (
	"net/http"

	"github.com/zintix-labs/puzzlelab/server/app"
)

// NetSvr 封裝「路由行為 + 服務啟停」。
//   - 只暴露給最外層的組裝器（server.Run / cmd）；handler 層只面向 NetRouter。
//   - 依賴反轉：session API 不綁死 chi，換框架時只要給一個新的實作。
//   - NetSvr 同時實作 app.Component，可直接交給 app.App 管生命週期。
type NetSvr interface {
	NetRouter
	app.Component
}

// NetRouter 是純路由行為。Group 回呼只拿得到 NetRouter，
// 看不到 Run/Shutdown，handler 層因此無法誤觸 server 的啟停。
type NetRouter interface {
	// middleware
	Use(middleware func(http.Handler) http.Handler)

	// 註冊路由
	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	Put(path string, h http.HandlerFunc)
	Delete(path string, h http.HandlerFunc)

	// 群組路由
	Group(path string, fn func(NetRouter))
}
