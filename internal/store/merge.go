package store

import "github.com/wfunc/game-community/internal/models"

// 列表合并函数，所有资源统一使用
// 都返回新切片，不修改传入的列表

// UpsertByID 替换同ID的元素，不存在时追加到末尾
func UpsertByID[T models.Identifiable](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	found := false
	for _, v := range list {
		if v.EntityID() == item.EntityID() {
			out = append(out, item)
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, item)
	}
	return out
}

// ReplaceByID 只替换同ID的元素，不存在时列表不变
func ReplaceByID[T models.Identifiable](list []T, item T) []T {
	out := make([]T, len(list))
	for i, v := range list {
		if v.EntityID() == item.EntityID() {
			out[i] = item
			continue
		}
		out[i] = v
	}
	return out
}

// RemoveByID 删除同ID的元素，保持其余元素顺序
func RemoveByID[T models.Identifiable](list []T, id int) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if v.EntityID() != id {
			out = append(out, v)
		}
	}
	return out
}

// Append 追加元素
func Append[T any](list []T, items ...T) []T {
	out := make([]T, 0, len(list)+len(items))
	out = append(out, list...)
	return append(out, items...)
}
