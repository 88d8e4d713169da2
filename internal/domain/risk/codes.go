package risk

// Reason codes, recorded in evaluation order.
const (
	CodeUnknownIP          = "UNKNOWN_IP"
	CodeUnknownDevice      = "UNKNOWN_DEVICE"
	CodeVelocityBurst      = "VELOCITY_BURST"
	CodeVelocityElevated   = "VELOCITY_ELEVATED"
	CodeOddHours           = "ODD_HOURS"
	CodeNewAccount         = "NEW_ACCOUNT"
	CodeFreshLogin         = "FRESH_LOGIN"
	CodeHighRiskHistory    = "HIGH_RISK_HISTORY"
	CodeSharedRouting      = "SHARED_ROUTING"
	CodeProxyIP            = "PROXY_IP"
	CodeGeoCountryMismatch = "GEO_COUNTRY_MISMATCH"
	CodeGeoRegionMismatch  = "GEO_REGION_MISMATCH"
	CodeGeoMatch           = "GEO_MATCH"
	CodeRoutingChanged     = "ROUTING_CHANGED"
	CodeAccountChanged     = "ACCOUNT_CHANGED"
	CodeElevatedBaseline   = "ELEVATED_BASELINE"
)

const (
	weightUnknownIP          = 30
	weightUnknownDevice      = 30
	weightVelocityBurst      = 40
	weightVelocityElevated   = 15
	weightOddHours           = 20
	weightNewAccount         = 15
	weightFreshLogin         = 30
	weightHighRiskHistory    = 40
	weightSharedRouting      = 35
	weightProxyIP            = 35
	weightGeoCountryMismatch = 40
	weightGeoRegionMismatch  = 20
	weightGeoMatchBonus      = -10
	weightRoutingChanged     = 40
	weightAccountChanged     = 20
	weightElevatedBaseline   = 10
)
