package request

type CouponListQuery struct {
	Status string `form:"status"`
}
