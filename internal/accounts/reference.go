package accounts

import "github.com/conciliafacil/concilia/internal/model"

// ReferencePlan returns the built-in SPED-style chart of accounts. The list
// is deliberately compact: the common operating accounts a small Brazilian
// company reconciles a bank statement against. It is read-only and never empty.
func ReferencePlan() []model.Account {
	plan := make([]model.Account, len(referencePlan))
	copy(plan, referencePlan)
	return plan
}

var referencePlan = []model.Account{
	{ID: "1.01.01.01.001", Name: "Caixa Geral"},
	{ID: "1.01.01.02.001", Name: "Bancos Conta Movimento"},
	{ID: "1.01.01.03.001", Name: "Aplicações Financeiras de Liquidez Imediata"},
	{ID: "1.01.02.01.001", Name: "Clientes Nacionais"},
	{ID: "1.01.03.01.001", Name: "Adiantamentos a Fornecedores"},
	{ID: "1.01.04.01.001", Name: "Estoques de Mercadorias"},
	{ID: "1.02.03.01.001", Name: "Móveis e Utensílios"},
	{ID: "1.02.03.02.001", Name: "Equipamentos de Informática"},
	{ID: "1.02.03.03.001", Name: "Veículos"},
	{ID: "2.01.01.01.001", Name: "Fornecedores Nacionais"},
	{ID: "2.01.02.01.001", Name: "Empréstimos e Financiamentos"},
	{ID: "2.01.03.01.001", Name: "Salários a Pagar"},
	{ID: "2.01.03.02.001", Name: "Pró-Labore a Pagar"},
	{ID: "2.01.04.01.001", Name: "FGTS a Recolher"},
	{ID: "2.01.04.02.001", Name: "INSS a Recolher"},
	{ID: "2.01.05.01.001", Name: "Simples Nacional a Recolher"},
	{ID: "2.01.05.02.001", Name: "ICMS a Recolher"},
	{ID: "2.01.05.03.001", Name: "ISS a Recolher"},
	{ID: "3.01.01.01.001", Name: "Receita de Vendas de Mercadorias"},
	{ID: "3.01.01.02.001", Name: "Receita de Prestação de Serviços"},
	{ID: "3.01.02.01.001", Name: "Receitas Financeiras"},
	{ID: "4.01.01.01.001", Name: "Custo das Mercadorias Vendidas"},
	{ID: "4.02.01.01.001", Name: "Despesas com Energia Elétrica"},
	{ID: "4.02.01.01.002", Name: "Despesas com Água e Esgoto"},
	{ID: "4.02.01.01.003", Name: "Despesas com Telefone e Internet"},
	{ID: "4.02.01.02.001", Name: "Despesas com Aluguel"},
	{ID: "4.02.01.02.002", Name: "Despesas com Condomínio"},
	{ID: "4.02.01.03.001", Name: "Despesas com Salários"},
	{ID: "4.02.01.03.002", Name: "Despesas com Pró-Labore"},
	{ID: "4.02.01.04.001", Name: "Despesas com Combustíveis"},
	{ID: "4.02.01.04.002", Name: "Despesas com Manutenção de Veículos"},
	{ID: "4.02.01.05.001", Name: "Despesas com Material de Escritório"},
	{ID: "4.02.01.06.001", Name: "Despesas com Serviços Contábeis"},
	{ID: "4.02.01.07.001", Name: "Despesas com Marketing e Publicidade"},
	{ID: "4.02.02.01.001", Name: "Despesas Bancárias e Tarifas"},
	{ID: "4.02.02.02.001", Name: "Juros Passivos"},
	{ID: "4.02.03.01.001", Name: "Despesas com Viagens"},
	{ID: "4.02.03.02.001", Name: "Despesas com Alimentação"},
}
