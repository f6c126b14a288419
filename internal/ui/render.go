package ui

import (
	"fmt"
)

const helpText = `commands:
  open <path>  select an image (png, jpg, jpeg, bmp, gif)
  ocr          recognize the selected image
  copy         copy the result to the clipboard
  url [url]    show or change the OCR API URL
  show         show image, preview and result
  quit         exit`

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}

func (a *App) renderStatus() {
	marker := ""
	if a.state.Processing {
		marker = " (busy)"
	}
	fmt.Fprintf(a.out, "[status%s] %s\n", marker, a.state.Status)
}

func (a *App) renderPreview() {
	p := a.state.Preview
	if p == nil {
		return
	}
	fmt.Fprintf(a.out, "%s: %dx%d %s\n", p.Path, p.Width, p.Height, p.Format)
	if a.width > 0 {
		fmt.Fprint(a.out, p.ASCII(a.width))
	}
}

func (a *App) renderResult() {
	fmt.Fprintln(a.out, "----- result -----")
	fmt.Fprintln(a.out, a.state.Result)
	fmt.Fprintln(a.out, "------------------")
}

func (a *App) render() {
	image := a.state.ImagePath
	if image == "" {
		image = "(none)"
	}
	fmt.Fprintf(a.out, "image:   %s\n", image)
	fmt.Fprintf(a.out, "api url: %s\n", a.state.APIURL)
	a.renderPreview()
	if a.state.Result != "" {
		a.renderResult()
	}
	a.renderStatus()
}
