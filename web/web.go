// Package web содержит шаблон страницы и статические файлы.
package web

import (
	"embed"
	"io/fs"
)

//go:embed index.html
var IndexHTML []byte

//go:embed static
var static embed.FS

// Static возвращает файлы каталога static.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
