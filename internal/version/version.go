package version

import "runtime/debug"

// Version 应用版本号，发布构建时通过 -ldflags 注入。
var Version = "devel"

// 通过 `go install .../floatchat-cn@latest` 安装时没有 -ldflags，
// 此时退回到 go install 写入的模块版本（go build 不会写入）。
func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		Version = v
	}
}
