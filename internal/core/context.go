package core

import (
	"context"

	"golang.org/x/text/language"

	"github.com/JonMunkholm/clinic/internal/i18n"
)

type contextKey string

const (
	ctxKeyRequest contextKey = "request_meta"
	ctxKeyLocale  contextKey = "locale"
)

// RequestMeta describes the caller of an operation for the audit log.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// WithRequestMeta attaches caller details to ctx.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, ctxKeyRequest, meta)
}

// RequestMetaFrom returns the caller details in ctx, if any.
func RequestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(ctxKeyRequest).(RequestMeta)
	return meta
}

// WithLocale sets the display language for messages produced under ctx.
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKeyLocale, tag)
}

// LocaleFrom returns the display language in ctx, or the default one.
func LocaleFrom(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(ctxKeyLocale).(language.Tag); ok {
		return tag
	}
	return i18n.Default()
}
