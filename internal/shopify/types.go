package shopify

// Order is the slice of a Shopify REST order this job reads. Everything else
// the API returns is ignored at decode time.
type Order struct {
	ID                int64           `json:"id"`
	OrderNumber       int             `json:"order_number"`
	Customer          *Customer       `json:"customer"`
	ShippingAddress   *Address        `json:"shipping_address"`
	Tags              string          `json:"tags"`
	LineItems         []LineItem      `json:"line_items"`
	NoteAttributes    []NoteAttribute `json:"note_attributes"`
	FinancialStatus   string          `json:"financial_status"`
	FulfillmentStatus string          `json:"fulfillment_status"`
	TotalPrice        string          `json:"total_price"`
}

type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Address struct {
	Name         string `json:"name"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	City         string `json:"city"`
	ProvinceCode string `json:"province_code"`
	Zip          string `json:"zip"`
	Phone        string `json:"phone"`
}

// LineItem carries both the display title and the internal name; tips are
// identified by the internal name, not the title.
type LineItem struct {
	Title       string `json:"title"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	PreTaxPrice string `json:"pre_tax_price"`
}

type NoteAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ordersResponse struct {
	Orders []Order `json:"orders"`
}
