package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Kentroth/instasheets-replacement/internal/shopify"
)

// Header is the fixed column contract of every day tab. The spreadsheet's
// consumers align on position, so order and count must not change.
var Header = []string{
	"Transaction ID",
	"Order #",
	"Customer Name",
	"Shipping Name",
	"Trays/Gifts",
	"Add-ons",
	"Date",
	"Time",
	"Amount",
	"Refunded",
	"Gift Note",
	"Special Requests",
	"Location",
	"Pickup/Delivery",
	"Address",
	"Delivery Fee",
	"Scheduled Delivery?",
	"Tip Amount",
	"All Items",
	"Financial Status",
	"Fulfillment Status",
}

// colDate is the index of the raw fulfillment date within a Row.
const colDate = 6

// Row is one order rendered as display-ready cells, aligned with Header.
type Row []string

// Formatter maps orders to rows using a tray catalog.
type Formatter struct {
	catalog *Catalog
}

func NewFormatter(catalog *Catalog) *Formatter {
	return &Formatter{catalog: catalog}
}

// Format renders one order. It is total: a missing customer, shipping
// address or note-attribute list degrades to empty cells, never an error.
func (f *Formatter) Format(o shopify.Order) Row {
	attrs := noteAttrs(o.NoteAttributes)

	var trays, addons, all []string
	tipAmount := ""
	for _, li := range o.LineItems {
		// Tips are synthetic line items; the internal name marks them, not
		// the display title.
		if strings.EqualFold(li.Name, "TIP") {
			tipAmount = li.PreTaxPrice
			continue
		}
		rendered := fmt.Sprintf("%d x %s", li.Quantity, li.Title)
		all = append(all, rendered)
		if f.catalog.IsTray(li.Title) {
			trays = append(trays, rendered)
		} else {
			addons = append(addons, rendered)
		}
	}

	isDelivery := attrs["Delivery-Location-Id"] != ""
	kind := "pickup"
	timeField := attrs["Pickup-Time"]
	if isDelivery {
		kind = "delivery"
		timeField = attrs["Delivery-Time"]
	} else if timeField == "" {
		timeField = "N/A"
	}

	return Row{
		strconv.FormatInt(o.ID, 10),
		fmt.Sprintf("#%d", o.OrderNumber),
		customerName(o.Customer),
		shippingName(o.ShippingAddress),
		strings.Join(trays, "; "),
		strings.Join(addons, "; "),
		firstNonEmpty(attrs["Delivery-Date"], attrs["Pickup-Date"]),
		timeField,
		o.TotalPrice,
		"", // Refunded is filled in by staff on the sheet.
		attrs["Gift Note"],
		attrs["Special Requests"],
		firstNonEmpty(attrs["Delivery-Location-Id"], attrs["Pickup-Location-Id"]),
		kind,
		addressBlock(o.ShippingAddress),
		attrs["Delivery Fee"],
		attrs["Favor Tag"],
		tipAmount,
		strings.Join(all, "; "),
		o.FinancialStatus,
		o.FulfillmentStatus,
	}
}

// noteAttrs flattens the order's name/value attribute list into a map.
// Duplicate names keep the last occurrence.
func noteAttrs(nas []shopify.NoteAttribute) map[string]string {
	m := make(map[string]string, len(nas))
	for _, na := range nas {
		m[na.Name] = na.Value
	}
	return m
}

func customerName(c *shopify.Customer) string {
	if c == nil {
		return ""
	}
	return joinNonEmpty(" ", strings.TrimSpace(c.FirstName), strings.TrimSpace(c.LastName))
}

func shippingName(a *shopify.Address) string {
	if a == nil {
		return ""
	}
	return strings.TrimSpace(a.Name)
}

// addressBlock renders the shipping address as one cell: non-empty lines
// joined with a double space, with the country fixed to US.
func addressBlock(a *shopify.Address) string {
	if a == nil {
		return ""
	}
	cityLine := strings.TrimSpace(fmt.Sprintf("%s, %s %s", a.City, a.ProvinceCode, a.Zip))
	cityLine = strings.Trim(cityLine, ", ")
	phoneLine := ""
	if a.Phone != "" {
		phoneLine = "Phone: " + a.Phone
	}
	return joinNonEmpty("  ", a.Address1, a.Address2, cityLine, "US", phoneLine)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
