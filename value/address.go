package value

import "fmt"

// ModuleAddress names a member (procedure or struct prototype) within a
// module: the pair (module_id, member_id).
type ModuleAddress struct {
	Module string
	Member string
}

func NewModuleAddress(module, member string) ModuleAddress {
	return ModuleAddress{Module: module, Member: member}
}

func (a ModuleAddress) String() string {
	return fmt.Sprintf("%s::%s", a.Module, a.Member)
}
