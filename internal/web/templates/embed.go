package templates

import (
	"embed"
	"html/template"
	"io"
)

//go:embed *.html
var files embed.FS

var pages = template.Must(template.ParseFS(files, "*.html"))

type Upload struct {
	Title  string
	Action string
}

type Result struct {
	Title   string
	Message string
}

func Render(w io.Writer, name string, data any) error {
	return pages.ExecuteTemplate(w, name, data)
}
