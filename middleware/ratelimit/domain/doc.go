// Package domain define os tipos da borda (chave, janela, decisão, eventos de
// estatística) e os contratos que infra implementa.
package domain
