package dto

type GetBalanceQuery struct{}

type GetBalanceOutput struct {
	BalanceSats int64
	BalanceNEXA string
	Address     string
}

type ListRecentDispensesQuery struct {
	Limit int
}

type RecentDispense struct {
	Address      string
	Date         string
	ShortAddress string
}

type ListRecentDispensesOutput struct {
	Transactions []RecentDispense
}

type ClearCooldownsCommand struct{}

type ClearCooldownsOutput struct {
	Message string
}
