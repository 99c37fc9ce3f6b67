package repository

// Repositories agrupa los puertos de persistencia. Dentro de TxRunner.Run todos quedan
// atados a la misma transacción.
type Repositories struct {
	Batches      BatchLedger
	Sales        SaleRepository
	Productions  ProductionRepository
	Transactions CashTransactionRepository
}
