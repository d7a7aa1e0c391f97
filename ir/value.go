package ir

// Value is any node in the IR graph: functions, globals, arguments,
// constants and instruction results.
type Value interface {
	// Type returns the value's type.
	Type() *Type
	// Name returns the value's name, "" for unnamed values.
	Name() string
	// Users returns a snapshot of the users currently referencing this value.
	Users() []User

	addUser(u User)
	removeUser(u User)
}

// User is a value that references other values through operands.
type User interface {
	Value
	// Operands returns the referenced values in operand order.
	Operands() []Value
	// SetOperand replaces operand i, keeping use lists consistent.
	SetOperand(i int, v Value)
}

// valueBase carries the state shared by every value implementation. Users
// are reference counted so a user holding the same value in two operand
// slots stays registered until both are rewritten.
type valueBase struct {
	typ   *Type
	name  string
	users map[User]int
	order []User
}

func (v *valueBase) Type() *Type  { return v.typ }
func (v *valueBase) Name() string { return v.name }

func (v *valueBase) Users() []User {
	out := make([]User, 0, len(v.order))
	for _, u := range v.order {
		if v.users[u] > 0 {
			out = append(out, u)
		}
	}
	return out
}

func (v *valueBase) addUser(u User) {
	if v.users == nil {
		v.users = make(map[User]int, 2)
	}
	if v.users[u] == 0 {
		v.order = append(v.order, u)
	}
	v.users[u]++
}

func (v *valueBase) removeUser(u User) {
	if n, ok := v.users[u]; ok {
		if n <= 1 {
			delete(v.users, u)
			for i, o := range v.order {
				if o == u {
					v.order = append(v.order[:i], v.order[i+1:]...)
					break
				}
			}
		} else {
			v.users[u] = n - 1
		}
	}
}

// ReplaceAllUsesWith rewrites every use of from into to across all users.
func ReplaceAllUsesWith(from, to Value) {
	if from == to {
		return
	}
	for _, u := range from.Users() {
		operands := u.Operands()
		for i, op := range operands {
			if op == from {
				u.SetOperand(i, to)
			}
		}
	}
}

// userBase carries operand storage for user values. initOperands wires the
// initial uses; SetOperand keeps both sides of the graph consistent on
// rewrite.
type userBase struct {
	valueBase
	operands []Value
}

func (u *userBase) Operands() []Value { return u.operands }

func (u *userBase) initOperands(self User, ops []Value) {
	u.operands = ops
	for _, op := range ops {
		if op != nil {
			op.addUser(self)
		}
	}
}

func (u *userBase) setOperand(self User, i int, v Value) {
	if old := u.operands[i]; old != nil {
		old.removeUser(self)
	}
	u.operands[i] = v
	if v != nil {
		v.addUser(self)
	}
}

// dropOperands detaches self from every operand. Used when an instruction is
// erased from its block.
func (u *userBase) dropOperands(self User) {
	for i, op := range u.operands {
		if op != nil {
			op.removeUser(self)
			u.operands[i] = nil
		}
	}
}
