package repository

// Repos agrupa los repositorios atados a una misma transacción (o al pool, fuera de ella).
type Repos struct {
	Lots       InventoryLotRepository
	Locations  LocationRepository
	Products   ProductRepository
	Rejections QARejectionRepository
	WorkOrders WorkOrderRepository
	Scrap      ScrapInventoryRepository
	Txns       InventoryTxnRepository
	Batches    DispositionBatchRepository
}
