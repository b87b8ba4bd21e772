// Package icons resolves the card artwork catalogue to URLs.
package icons

import "strings"

// Names is the artwork shipped with the web client.
var Names = []string{
	"angular.svg",
	"bootstrap.svg",
	"browser-stack.svg",
	"css.svg",
	"docker.svg",
	"git.svg",
	"html.svg",
	"javascript.svg",
	"nuxt.svg",
	"python.svg",
	"react.svg",
	"shopware.svg",
	"stack-overflow.svg",
	"svelte.svg",
	"typescript.svg",
	"visual-studio-code.svg",
	"vite.svg",
	"vue.svg",
}

// Source lists icon URLs under BaseURL. It satisfies memory.IconSource.
type Source struct {
	BaseURL string
}

func NewSource(baseURL string) Source {
	return Source{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s Source) ListIconIdentities() []string {
	urls := make([]string, len(Names))
	for i, name := range Names {
		urls[i] = s.BaseURL + "/" + name
	}
	return urls
}
