package routes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/cottonsite/internal/foundation/errors"
)

func TestRegistry_RegisterKeepsOrder(t *testing.T) {
	reg := NewRegistry("")
	require.Equal(t, DefaultRoot, reg.Root())

	for _, name := range []string{"home", "accordion", "alerts"} {
		require.NoError(t, reg.Register(Definition{Name: name, Template: name + ".html"}))
	}

	defs := reg.Definitions()
	require.Len(t, defs, 3)
	require.Equal(t, "home", defs[0].Name)
	require.Equal(t, "alerts", defs[2].Name)
	require.Equal(t, 3, reg.Len())

	def, ok := reg.Lookup("accordion")
	require.True(t, ok)
	require.Equal(t, "accordion.html", def.Template)
	_, ok = reg.Lookup("missing")
	require.False(t, ok)
}

func TestRegistry_DuplicateName(t *testing.T) {
	reg := NewRegistry("home")
	require.NoError(t, reg.Register(Definition{Name: "alerts"}))

	err := reg.Register(Definition{Name: "alerts", Template: "other.html"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDuplicateRoute))
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryRoute))
	require.Equal(t, 1, reg.Len(), "rejected definition must not be stored")
}

func TestFromDefinitions_DuplicateName(t *testing.T) {
	_, err := FromDefinitions("home",
		Definition{Name: "home"},
		Definition{Name: "badge"},
		Definition{Name: "home"},
	)
	require.ErrorIs(t, err, ErrDuplicateRoute)
}

func TestRegistry_InvalidNames(t *testing.T) {
	cases := []string{"", " alerts", "alerts ", ".", "..", "a/b", `a\b`}
	for _, name := range cases {
		t.Run(name, func(t *testing.T) {
			err := NewRegistry("home").Register(Definition{Name: name})
			require.ErrorIs(t, err, ErrInvalidRouteName)
		})
	}
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	reg := NewRegistry("home")
	reg.MustRegister(Definition{Name: "home"})
	require.Panics(t, func() { reg.MustRegister(Definition{Name: "home"}) })
}
