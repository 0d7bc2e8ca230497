package controllers

// APIResponse 统一API响应结构,status 为 0 表示成功
type APIResponse struct {
	Status int         `json:"status" example:"0"`
	Msg    string      `json:"msg" example:"校验完成"`
	Data   interface{} `json:"data,omitempty"`
}

// PaginatedResponse 配置记录列表的分页响应结构
type PaginatedResponse struct {
	Status int         `json:"status" example:"0"`
	Msg    string      `json:"msg" example:"查询成功"`
	Data   interface{} `json:"data"`
	Total  int64       `json:"total" example:"42"`
	Page   int         `json:"page" example:"1"`
	Size   int         `json:"size" example:"20"`
}
