package commands

import (
	"flag"

	"todos/internal/store"
)

// viewFlags are the --filter and --search flags shared by commands that
// address todos by position.
type viewFlags struct {
	filter string
	search string
}

func (v *viewFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&v.filter, "filter", "", "")
	fs.StringVar(&v.filter, "f", "", "")
	fs.StringVar(&v.search, "search", "", "")
	fs.StringVar(&v.search, "s", "", "")
}

func (v *viewFlags) view() (store.View, error) {
	f, err := store.ParseFilter(v.filter)
	if err != nil {
		return store.View{}, err
	}
	return store.View{Filter: f, Search: v.search}, nil
}
