// Package infra implementa os contratos de domain: WindowStore (mapa em memória
// com varredura a cada hit), ChanPool (vagas no upstream) e os stores de
// estatística em memória e no Redis.
package infra
