package coupon

type IssueStatus string

const (
	IssueStatusIssued  IssueStatus = "ISSUED"
	IssueStatusUsed    IssueStatus = "USED"
	IssueStatusExpired IssueStatus = "EXPIRED"
)

var issueTransitions = map[IssueStatus][]IssueStatus{
	IssueStatusIssued: {IssueStatusUsed, IssueStatusExpired},
	IssueStatusUsed:   {IssueStatusIssued},
}

func (s IssueStatus) String() string {
	return string(s)
}

func (s IssueStatus) IsValid() bool {
	switch s {
	case IssueStatusIssued, IssueStatusUsed, IssueStatusExpired:
		return true
	default:
		return false
	}
}

func (s IssueStatus) CanTransitionTo(next IssueStatus) bool {
	for _, allowed := range issueTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PromotionStatus string

const (
	PromotionStatusActive PromotionStatus = "ACTIVE"
	PromotionStatusEnded  PromotionStatus = "ENDED"
)

func (s PromotionStatus) IsValid() bool {
	return s == PromotionStatusActive || s == PromotionStatusEnded
}
