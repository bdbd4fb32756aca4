package dto

// TopCustomerDTO is a customer ranked by lifetime spend.
type TopCustomerDTO struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Spend float64 `json:"spend"`
}

// GlobalStatsResponse aggregates order and customer data. Computed
// fresh on every request.
type GlobalStatsResponse struct {
	TotalOrders   int64            `json:"totalOrders"`
	TotalRevenue  float64          `json:"totalRevenue"`
	AvgOrderValue float64          `json:"avgOrderValue"`
	TopCustomer   *TopCustomerDTO  `json:"topCustomer"`
	TopCustomers  []TopCustomerDTO `json:"topCustomers"`
}
