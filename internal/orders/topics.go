package orders

const (
	TopicOrderCreated   = "order.created"
	TopicOrderUpdated   = "order.updated"
	TopicOrderCancelled = "order.cancelled"
	TopicOrderDeleted   = "order.deleted"
	TopicStockLow       = "stock.low"
)

// OrderTopics: semua topic lifecycle order, dipakai consumer notifier.
func OrderTopics() []string {
	return []string{TopicOrderCreated, TopicOrderUpdated, TopicOrderCancelled, TopicOrderDeleted}
}

// Partition key = order_id supaya event satu order tetap berurutan.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
