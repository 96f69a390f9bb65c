package listing

// Kind distinguishes the two bookable catalogs. A booking references exactly
// one listing of exactly one kind.
type Kind string

const (
	KindEquipment Kind = "equipment"
	KindBrokerage Kind = "brokerage"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindEquipment, KindBrokerage:
		return true
	default:
		return false
	}
}

// PriceUnit is the billing granularity of a listing's price.
type PriceUnit string

const (
	PriceHourly  PriceUnit = "hourly"
	PriceDaily   PriceUnit = "daily"
	PriceWeekly  PriceUnit = "weekly"
	PriceMonthly PriceUnit = "monthly"
	PriceFixed   PriceUnit = "fixed"
)

func (u PriceUnit) String() string {
	return string(u)
}

func (u PriceUnit) IsValid() bool {
	switch u {
	case PriceHourly, PriceDaily, PriceWeekly, PriceMonthly, PriceFixed:
		return true
	default:
		return false
	}
}
