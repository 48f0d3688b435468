package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyPurpose  llmCtxKey = "llm_purpose"
	llmCtxKeyProvider llmCtxKey = "llm_provider"
	llmCtxKeyClient   llmCtxKey = "llm_client"
)

func WithPurpose(ctx context.Context, purpose string) context.Context {
	if ctx == nil {
		return nil
	}
	p := strings.TrimSpace(purpose)
	if p == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyPurpose, p)
}

func WithProvider(ctx context.Context, provider string) context.Context {
	if ctx == nil {
		return nil
	}
	p := strings.TrimSpace(provider)
	if p == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyProvider, p)
}

func WithClient(ctx context.Context, clientID string) context.Context {
	if ctx == nil {
		return nil
	}
	c := strings.TrimSpace(clientID)
	if c == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyClient, c)
}

func PurposeFromContext(ctx context.Context) string {
	return ctxString(ctx, llmCtxKeyPurpose)
}

func ProviderFromContext(ctx context.Context) string {
	return ctxString(ctx, llmCtxKeyProvider)
}

func ClientFromContext(ctx context.Context) string {
	return ctxString(ctx, llmCtxKeyClient)
}

func ctxString(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return "unknown"
	}
	v := ctx.Value(key)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return strings.TrimSpace(s)
}
