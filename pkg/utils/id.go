package utils

import "github.com/google/uuid"

// NewID 生成 36 位 uuid 字符串，作为各表主键
func NewID() string { return uuid.NewString() }
