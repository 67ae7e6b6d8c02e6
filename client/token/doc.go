// Package token obtém o bearer usado pelo cliente de API.
//
// Ordem de preferência:
//
//  1. identidade logada localmente (Identity) com refresh forçado;
//  2. cache de sessão;
//  3. cache persistente.
//
// Sem nenhum dos três o Provider devolve "" sem erro e a chamada segue sem
// Authorization: quem decide se isso é aceitável é o servidor.
package token
