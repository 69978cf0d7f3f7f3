package report

import (
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/shopspring/decimal"
)

const (
	BrandUnidentified = "NÃO IDENTIFICADA"
	TypeUnidentified  = "NÃO IDENTIFICADO"
	PIX               = "PIX"
	TotalLabel        = "TOTAL GERAL"
)

var (
	Brands       = []string{"MASTERCARD", "VISA", "ELO", "AMEX", "HIPERCARD", "CABAL", BrandUnidentified}
	ProductTypes = []string{"DEBIT", "CREDIT", "PREPAID_CREDIT", "PREPAID_DEBIT"}

	// AcceptedStatuses count as accepted. Any other status is denied.
	AcceptedStatuses = []string{"AUTHORIZED", "PRE_AUTHORIZED", "PENDING"}
)

var hundred = decimal.NewFromInt(100)

// Bucket holds the transactions of one brand and product type, or the PIX transactions.
type Bucket struct {
	Brand          string
	ProductType    string
	AcceptedQty    int
	AcceptedAmount decimal.Decimal
	DeniedQty      int
	DeniedAmount   decimal.Decimal
	Transactions   []Transaction
}

func (b *Bucket) Name() string {
	if b.ProductType == PIX {
		return PIX
	}
	return b.Brand + " " + b.ProductType
}

func (b *Bucket) add(tx Transaction) {
	b.Transactions = append(b.Transactions, tx)
	if Accepted(tx.TransactionStatus) {
		b.AcceptedQty++
		b.AcceptedAmount = b.AcceptedAmount.Add(tx.Amount)
		return
	}
	b.DeniedQty++
	b.DeniedAmount = b.DeniedAmount.Add(tx.Amount)
}

// Row is one line of the summary sheet. Percentages are already formatted.
type Row struct {
	Label                 string
	AcceptedQty           int
	AcceptedAmount        decimal.Decimal
	AcceptedPercent       string
	AcceptedAmountPercent string
	DeniedQty             int
	DeniedAmount          decimal.Decimal
	DeniedPercent         string
	DeniedAmountPercent   string
}

type Summary struct {
	// Buckets lists every brand and type pair in Brands x ProductTypes order, with
	// unidentified product types after the known ones and PIX last.
	Buckets    []*Bucket
	BucketRows []Row
	TypeTotals []Row
	Total      Row
	Count      int
}

func Accepted(status string) bool {
	return ectolinq.Contains(AcceptedStatuses, strings.ToUpper(strings.TrimSpace(status)))
}

// Classify returns the bucket a transaction belongs to.
func Classify(tx Transaction) (brand, productType string) {
	productType = strings.ToUpper(strings.TrimSpace(tx.ProductType))
	brand = strings.ToUpper(strings.TrimSpace(tx.Brand))
	if productType == PIX || brand == PIX {
		return PIX, PIX
	}
	if !ectolinq.Contains(Brands, brand) {
		brand = BrandUnidentified
	}
	if !ectolinq.Contains(ProductTypes, productType) {
		productType = TypeUnidentified
	}
	return brand, productType
}

// Summarize places every transaction in exactly one bucket and builds the summary rows.
func Summarize(txs []Transaction) Summary {
	index := map[string]*Bucket{}
	var buckets []*Bucket
	newBucket := func(brand, productType string) {
		b := &Bucket{Brand: brand, ProductType: productType}
		index[brand+"|"+productType] = b
		buckets = append(buckets, b)
	}
	cardTypes := append(append([]string{}, ProductTypes...), TypeUnidentified)
	for _, brand := range Brands {
		for _, productType := range cardTypes {
			newBucket(brand, productType)
		}
	}
	newBucket(PIX, PIX)

	for _, tx := range txs {
		brand, productType := Classify(tx)
		index[brand+"|"+productType].add(tx)
	}

	var acceptedQty, deniedQty int
	acceptedAmount, deniedAmount := decimal.Zero, decimal.Zero
	for _, b := range buckets {
		acceptedQty += b.AcceptedQty
		deniedQty += b.DeniedQty
		acceptedAmount = acceptedAmount.Add(b.AcceptedAmount)
		deniedAmount = deniedAmount.Add(b.DeniedAmount)
	}
	row := func(label string, group []*Bucket) Row {
		r := Row{Label: label, AcceptedAmount: decimal.Zero, DeniedAmount: decimal.Zero}
		for _, b := range group {
			r.AcceptedQty += b.AcceptedQty
			r.DeniedQty += b.DeniedQty
			r.AcceptedAmount = r.AcceptedAmount.Add(b.AcceptedAmount)
			r.DeniedAmount = r.DeniedAmount.Add(b.DeniedAmount)
		}
		r.AcceptedPercent = Percent(decimal.NewFromInt(int64(r.AcceptedQty)), decimal.NewFromInt(int64(acceptedQty)))
		r.AcceptedAmountPercent = Percent(r.AcceptedAmount, acceptedAmount)
		r.DeniedPercent = Percent(decimal.NewFromInt(int64(r.DeniedQty)), decimal.NewFromInt(int64(deniedQty)))
		r.DeniedAmountPercent = Percent(r.DeniedAmount, deniedAmount)
		return r
	}

	summary := Summary{Buckets: buckets, Count: len(txs)}
	for _, b := range buckets {
		summary.BucketRows = append(summary.BucketRows, row(b.Name(), []*Bucket{b}))
	}
	for _, productType := range append(cardTypes, PIX) {
		group := ectolinq.Filter(buckets, func(b *Bucket) bool { return b.ProductType == productType })
		summary.TypeTotals = append(summary.TypeTotals, row("Total "+productType, group))
	}

	summary.Total = row(TotalLabel, buckets)
	if len(txs) > 0 {
		summary.Total.AcceptedPercent = "100%"
		summary.Total.AcceptedAmountPercent = "100%"
		summary.Total.DeniedPercent = "100%"
		summary.Total.DeniedAmountPercent = "100%"
	}
	return summary
}

// NonEmpty returns the buckets that received at least one transaction.
func (s Summary) NonEmpty() []*Bucket {
	return ectolinq.Filter(s.Buckets, func(b *Bucket) bool { return len(b.Transactions) > 0 })
}

func (s Summary) Bucket(brand, productType string) *Bucket {
	return ectolinq.Find(s.Buckets, func(b *Bucket) bool {
		return b.Brand == brand && b.ProductType == productType
	})
}

// Percent renders part/whole with two decimals. A zero whole renders 0.00%.
func Percent(part, whole decimal.Decimal) string {
	if whole.IsZero() {
		return "0.00%"
	}
	return part.Div(whole).Mul(hundred).StringFixed(2) + "%"
}
