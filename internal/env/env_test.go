package env

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOsEnvGet(t *testing.T) {
	e := New()

	t.Setenv("FLOATCHAT_TEST_VAR", "dark")
	require.Equal(t, "dark", e.Get("FLOATCHAT_TEST_VAR"))
	require.Equal(t, "", e.Get("FLOATCHAT_NON_EXISTENT"))
}

func TestOsEnvEnv(t *testing.T) {
	vars := New().Env()
	require.NotEmpty(t, vars)
	for _, v := range vars {
		require.Contains(t, v, "=")
	}
}

func TestMapEnvGet(t *testing.T) {
	t.Parallel()

	e := NewFromMap(map[string]string{
		"FLOATCHAT_THEME": "dark",
		"EMPTY":           "",
	})

	require.Equal(t, "dark", e.Get("FLOATCHAT_THEME"))
	require.Equal(t, "", e.Get("EMPTY"))
	require.Equal(t, "", e.Get("MISSING"))
}

func TestMapEnvEnv(t *testing.T) {
	t.Parallel()

	t.Run("有值", func(t *testing.T) {
		t.Parallel()
		e := NewFromMap(map[string]string{
			"A": "1",
			"B": "value=with=equals",
		})

		vars := e.Env()
		require.Len(t, vars, 2)

		// 顺序不保证，转成 map 再断言
		got := make(map[string]string)
		for _, v := range vars {
			parts := strings.SplitN(v, "=", 2)
			require.Len(t, parts, 2)
			got[parts[0]] = parts[1]
		}
		require.Equal(t, "1", got["A"])
		require.Equal(t, "value=with=equals", got["B"])
	})

	t.Run("空映射返回nil", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, NewFromMap(map[string]string{}).Env())
		require.Nil(t, NewFromMap(nil).Env())
	})
}
