// Package ratelimit traduz as decisões de janela fixa e de vaga no upstream para HTTP.
//
// Middleware, por requisição:
//
//  1. extrai a chave do cliente (X-Forwarded-For, X-Real-IP ou "anonymous")
//  2. conta o hit na janela via application.Service
//  3. escreve X-RateLimit-Limit, X-RateLimit-Remaining e X-RateLimit-Reset (epoch ms)
//  4. acima do limite responde 429 text/plain com Retry-After, sem chamar o próximo handler
//
// ShedMiddleware fica depois da borda e segura o upstream: sem vaga em MaxWait,
// 503 com Retry-After.
package ratelimit
