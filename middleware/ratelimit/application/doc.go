// Package application aplica as regras de borda sem conhecer HTTP:
// Service.Decide conta um hit e monta a Decision; ShedService.Admit reserva uma
// vaga no upstream.
package application
