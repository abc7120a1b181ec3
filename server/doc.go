// Package server implements the analysis backend the gateway talks to. It
// exposes the AI-likelihood check, tutor chat, scored upload feedback and
// schema-driven structured analysis over HTTP, delegating all judgement to a
// model.Model. The server holds no entity state; persisting results is the
// caller's job via an EntityStore.
package server
