package domain

type Table string

const (
	TableMarketplaceEvents Table = "marketplace_events"
	TableRoyaltyConfigs    Table = "royalty_configs"
)
