// Package ledger содержит правила кредитной политики Boostly и сущности
// денежного контура: redemption'ы и журнал месячных сбросов.
package ledger

// Константы кредитной политики. Они зашиты в домен, а не в конфигурацию:
// изменение любой из них меняет экономику системы и требует миграции данных.
const (
	// InitialBalance - базовый месячный запас кредитов каждого студента.
	InitialBalance = 100

	// MonthlyAllowance - максимум кредитов, которые студент может
	// отправить другим за один календарный месяц.
	MonthlyAllowance = 100

	// CarryForwardCap - максимум неиспользованных кредитов,
	// переносимых в следующий месяц при сбросе.
	CarryForwardCap = 50

	// VoucherRatePerCredit - курс обмена кредитов на ваучеры (INR за кредит).
	VoucherRatePerCredit = 5
)

// CarryForward вычисляет перенос при месячном сбросе: min(cap, balance).
// Отрицательный баланс трактуется как нулевой перенос.
func CarryForward(balance int) int {
	if balance <= 0 {
		return 0
	}
	if balance > CarryForwardCap {
		return CarryForwardCap
	}
	return balance
}

// VoucherValue вычисляет стоимость ваучера в INR за указанное число кредитов.
func VoucherValue(credits int) int {
	return credits * VoucherRatePerCredit
}
