// Package edge monta o pipeline de borda que roda antes de qualquer página:
//
//	requisição -> (excluída? segue direto)
//	           -> rate limit (429 e fim) -> gate de sessão (302 e fim) -> próximo handler
//
// Os headers X-RateLimit-* escritos pelo rate limit acompanham a resposta final.
package edge
