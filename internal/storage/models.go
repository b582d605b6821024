package storage

type Representative struct {
	ID              int64
	Name            string
	CommissionRate  float64
	TotalSold       float64
	TotalCommission float64
}

type Customer struct {
	ID    int64
	Name  string
	Phone string
}

type Sale struct {
	ID                    int64
	RepresentativeID      int64
	CustomerID            int64
	Value                 float64
	Date                  string
	CommissionRateApplied float64
	CommissionValue       float64
}

// SaleRow is a sale joined with the names of its representative and customer.
type SaleRow struct {
	Sale
	RepresentativeName string
	CustomerName       string
}
