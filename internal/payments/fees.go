package payments

import "math"

// PlatformFeeRate - комиссия платформы, удерживаемая с каждого контракта.
const PlatformFeeRate = 0.15

// PlatformFee возвращает комиссию платформы для суммы amount,
// округленную до цента.
func PlatformFee(amount float64) float64 {
	return math.Round(amount*PlatformFeeRate*100) / 100
}

// FreelancerPayout возвращает сумму выплаты фрилансеру после удержания комиссии.
func FreelancerPayout(amount float64) float64 {
	return math.Round((amount-PlatformFee(amount))*100) / 100
}

// ToCents переводит сумму в центы для платежного провайдера.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents переводит центы обратно в доллары.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}
