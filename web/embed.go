package web

import "embed"

// TemplatesFS embeds the dashboard page and its htmx partials.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds the stylesheet and the htmx event glue script.
//
//go:embed static/*
var StaticFS embed.FS
