package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcedureBind(t *testing.T) {
	st := spDeleteUser.bind("01", "1712345678")
	require.NoError(t, st.err)
	assert.Equal(t, "EXEC sp_Eliminar_Usuario ?, ?", st.text)
	assert.Equal(t, []interface{}{"01", "1712345678"}, st.params)

	st = spQueryBook.bind("X-1")
	require.NoError(t, st.err)
	assert.Equal(t, "EXEC sp_Consultar_Libro ?", st.text)

	st = spInsertAisle.bind("01")
	assert.EqualError(t, st.err, "sp_Insertar_Pasillo takes 2 arguments (id_biblioteca, num_pasillo), got 1")

	st = spQueryLoan.all()
	require.NoError(t, st.err)
	assert.Equal(t, "EXEC sp_Consultar_Prestamo", st.text)
	assert.Empty(t, st.params)
}

func TestCatalogueKeepsValuesOutOfText(t *testing.T) {
	st := spInsertUser.bind("01", "1'; DROP TABLE usuario; --", "a", "b", "c", "d")
	require.NoError(t, st.err)
	assert.NotContains(t, st.text, "DROP")
}

func TestViewQuery(t *testing.T) {
	st := viewQuery(ViewUsers, userByCedulaFilter, "1")
	require.NoError(t, st.err)
	assert.Equal(t, "SELECT * FROM v_Usuario WHERE cedula = ?", st.text)

	st = viewQuery(ViewUsers, userByCedulaFilter)
	assert.Error(t, st.err)

	st = viewQuery("usuario u JOIN prestamo p ON u.cedula = p.cedula", "")
	assert.Error(t, st.err)
}
