package statistic

type TotalsResponse struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalEmployees   int64 `json:"totalEmployees"`
	TotalAttendances int64 `json:"totalAttendances"`
}
