// Package session decide, por requisição, se o caminho pode seguir ou se o
// navegador deve ser redirecionado para o login ou para a home, olhando apenas
// a presença do cookie de sessão.
//
// A validade criptográfica do cookie é problema do app/servidor de API; aqui só
// interessa presença/ausência.
package session
