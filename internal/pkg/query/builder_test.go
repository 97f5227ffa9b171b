package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_BasicSelect(t *testing.T) {
	stmt := From("contacts").
		Select("cpf_cnpj", "name", "email").
		Build()

	assert.Equal(t, "SELECT cpf_cnpj, name, email FROM contacts", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_SelectAllColumns(t *testing.T) {
	stmt := From("contacts").Build()

	assert.Equal(t, "SELECT * FROM contacts", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_SingleWhereCondition(t *testing.T) {
	stmt := From("contacts").
		Select("email").
		Where(Eq("cpf_cnpj", "111.111.111-11")).
		Build()

	assert.Equal(t, "SELECT email FROM contacts WHERE cpf_cnpj = @p0", stmt.SQL)
	assert.Equal(t, map[string]interface{}{"p0": "111.111.111-11"}, stmt.Params)
}

func TestBuilder_ParameterNamesFollowConditionOrder(t *testing.T) {
	stmt := From("sales").
		Select("COUNT(*)").
		Where(Eq("contact_tax_id", "123")).
		Where(Expr("discount = 0")).
		Where(Gte("sale_date", "2024-01-01")).
		Where(Lt("sale_date", "2024-04-01")).
		Where(In("payment_method", []string{"pix", "credito"})).
		Build()

	assert.Equal(t,
		"SELECT COUNT(*) FROM sales WHERE contact_tax_id = @p0 AND discount = 0 AND sale_date >= @p1 AND sale_date < @p2 AND payment_method IN UNNEST(@p3)",
		stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "123",
		"p1": "2024-01-01",
		"p2": "2024-04-01",
		"p3": []string{"pix", "credito"},
	}, stmt.Params)
}

func TestBuilder_LeftJoinAndOrdering(t *testing.T) {
	stmt := From("sales s").
		Select("s.sale_id", "i.item_id").
		LeftJoin("sale_items i", "i.sale_id = s.sale_id").
		Where(Eq("s.sale_id", "999")).
		OrderBy("i.position", Asc).
		OrderBy("i.item_id", Desc).
		Build()

	assert.Equal(t,
		"SELECT s.sale_id, i.item_id FROM sales s LEFT JOIN sale_items i ON i.sale_id = s.sale_id WHERE s.sale_id = @p0 ORDER BY i.position ASC, i.item_id DESC",
		stmt.SQL)
}

func TestBuilder_Limit(t *testing.T) {
	stmt := From("contacts").
		Select("email").
		Where(Expr("email IS NOT NULL")).
		Limit(2).
		Build()

	assert.Equal(t, "SELECT email FROM contacts WHERE email IS NOT NULL LIMIT @limit", stmt.SQL)
	assert.Equal(t, map[string]interface{}{"limit": int64(2)}, stmt.Params)
}

func TestBuilder_Immutability(t *testing.T) {
	base := From("contacts").Select("email")
	withWhere := base.Where(Eq("cpf_cnpj", "1"))

	assert.Equal(t, "SELECT email FROM contacts", base.Build().SQL)
	assert.Equal(t, "SELECT email FROM contacts WHERE cpf_cnpj = @p0", withWhere.Build().SQL)
}
