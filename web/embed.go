package web

import "embed"

// TemplatesFS holds the page templates compiled into the binary.
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and any other static assets.
//go:embed static/*
var StaticFS embed.FS
