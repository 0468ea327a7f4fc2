package dto

import "github.com/shopspring/decimal"

type TopProduct struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type SalesReport struct {
	TotalSales         int             `json:"totalSales"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue  decimal.Decimal `json:"averageOrderValue"`
	TopSellingProducts []TopProduct    `json:"topSellingProducts"`
}

type InventoryReport struct {
	TotalProducts    int             `json:"totalProducts"`
	TotalValue       decimal.Decimal `json:"totalValue"`
	OutOfStock       int             `json:"outOfStock"`
	LowStockProducts int             `json:"lowStockProducts"`
	ExpiringProducts int             `json:"expiringProducts"`
}

type TopCustomer struct {
	CustomerID     string          `json:"customerId"`
	Name           string          `json:"name"`
	TotalPurchases int             `json:"totalPurchases"`
	TotalSpent     decimal.Decimal `json:"totalSpent"`
}

type CustomersReport struct {
	TotalCustomers  int           `json:"totalCustomers"`
	NewCustomers    int           `json:"newCustomers"`
	ActiveCustomers int           `json:"activeCustomers"`
	TopCustomers    []TopCustomer `json:"topCustomers"`
}

type TopSupplier struct {
	SupplierID  string          `json:"supplierId"`
	Name        string          `json:"name"`
	OrderCount  int             `json:"orderCount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type PurchasesReport struct {
	TotalPurchases int             `json:"totalPurchases"`
	TotalCost      decimal.Decimal `json:"totalCost"`
	PendingOrders  int             `json:"pendingOrders"`
	TopSuppliers   []TopSupplier   `json:"topSuppliers"`
}
