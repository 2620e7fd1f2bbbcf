package model

// Occupant 排课格子占用状态：零值即空闲（Free），
// 因此任何格子都不存在“未设置”状态。
type Occupant struct {
	module string
}

// Free 空闲
var Free = Occupant{}

// Occupied 被模块占用；空模块名等同于空闲
func Occupied(module string) Occupant {
	return Occupant{module: module}
}

// IsFree 是否空闲
func (o Occupant) IsFree() bool {
	return o.module == ""
}

// Module 占用模块名，空闲时 ok=false
func (o Occupant) Module() (name string, ok bool) {
	return o.module, o.module != ""
}

// Label 输出用文本：空闲时返回 freeLabel
func (o Occupant) Label(freeLabel string) string {
	if o.IsFree() {
		return freeLabel
	}
	return o.module
}

func (o Occupant) String() string {
	return o.Label("Free")
}
