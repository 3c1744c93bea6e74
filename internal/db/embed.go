package db

import "embed"

// FS 内嵌全部迁移 SQL，启动时不依赖外部文件。
//
//go:embed migrations/*.sql
var FS embed.FS
