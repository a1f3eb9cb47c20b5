package hfsm

// Composite configures a state that owns the given child machines. The
// children start fresh whenever the state is entered without history and
// receive events ahead of the state's own transitions. It is sugar over
// Configure(state).Child(children...); the returned builder accepts further
// configuration.
func Composite(state *State, children ...*Machine) *ContainerBuilder {
	return Configure(state).Child(children...)
}
