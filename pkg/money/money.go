package money

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ToMinorUnits rupi tutarını paise'e çevirir
func ToMinorUnits(major int64) int64 {
	return decimal.NewFromInt(major).Mul(hundred).IntPart()
}

// FromMinorUnits paise tutarını iki basamaklı gösterime çevirir
func FromMinorUnits(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

// EffectivePrice indirimli fiyat tanımlı değilse liste fiyatını döner
func EffectivePrice(price, salePrice int64) int64 {
	if salePrice > 0 {
		return salePrice
	}
	return price
}

// DisplayMrp liste fiyatı sadece satış fiyatından büyükse gösterilir
func DisplayMrp(mrp, sale int64) int64 {
	if mrp > sale {
		return mrp
	}
	return 0
}

// DiscountPercent round((mrp-sale)/mrp*100), yarım değerler yukarı yuvarlanır
func DiscountPercent(mrp, sale int64) int {
	if mrp <= 0 || mrp <= sale {
		return 0
	}
	m := decimal.NewFromInt(mrp)
	diff := m.Sub(decimal.NewFromInt(sale))
	return int(diff.Div(m).Mul(hundred).Round(0).IntPart())
}

// Percent tamamlanma yüzdesi, total sıfırsa 0
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	p := decimal.NewFromInt(int64(part)).Div(decimal.NewFromInt(int64(total))).Mul(hundred)
	return int(p.Round(0).IntPart())
}
