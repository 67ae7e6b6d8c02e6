// Package api é o cliente HTTP resiliente usado para falar com a API de reservas.
//
// Toda chamada passa por:
//
//	interceptor de request  -> anexa Authorization: Bearer (refresh forçado, cache como fallback)
//	envio                   -> timeout de 15s, Content-Type application/json
//	interceptor de resposta -> desativação (alerta + logout + login?reason=deactivated),
//	                           401 (login?reason=expired|revoked|auth_error)
//	retry                   -> até MaxRetries novas tentativas com backoff 2^n * base,
//	                           com token renovado a cada tentativa
//
// O redirecionamento do 401 e o retry são ramos independentes: os dois podem
// disparar para o mesmo erro.
package api
