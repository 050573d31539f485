// Package web embeds the landing page and test terminal.
package web

import (
	"embed"
	"io/fs"
)

//go:embed assets/*
var embedded embed.FS

// Assets returns the site rooted at the assets directory.
func Assets() fs.FS {
	sub, err := fs.Sub(embedded, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
