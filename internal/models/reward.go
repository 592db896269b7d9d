package models

// Константы вознаграждений. Значения должны совпадать с константами фронтенда.
const (
	// SubunitsPerToken - число субъединиц в одном токене.
	SubunitsPerToken = 1000
	// RewardPerAdSubunits - награда за один просмотр рекламы (0.5 токена).
	RewardPerAdSubunits = 500
	// ReferralBonusSubunits - бонус рефереру, 10% от награды за просмотр.
	ReferralBonusSubunits = 50
	// DailyAdLimit - максимум просмотров в сутки (по UTC) на пользователя.
	DailyAdLimit = 25
	// MinWithdrawSubunits - минимальная сумма вывода.
	MinWithdrawSubunits = 100 * SubunitsPerToken
)
