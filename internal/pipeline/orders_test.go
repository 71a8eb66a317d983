package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// findStage devuelve la primera etapa del pipeline con esa clave.
func findStage(t *testing.T, pipe []bson.M, key string) bson.M {
	t.Helper()
	for _, st := range pipe {
		if _, ok := st[key]; ok {
			return st
		}
	}
	t.Fatalf("pipeline sin etapa %s", key)
	return nil
}

func TestAllOrdersSortsAndPaginates(t *testing.T) {
	pipe := AllOrders(20, 5)

	sort := findStage(t, pipe, "$sort")
	assert.Equal(t, bson.M{"date": -1}, sort["$sort"])

	assert.EqualValues(t, 20, findStage(t, pipe, "$skip")["$skip"])
	assert.EqualValues(t, 5, findStage(t, pipe, "$limit")["$limit"])

	// El sort va antes de la paginación.
	var sortIdx, skipIdx int
	for i, st := range pipe {
		if _, ok := st["$sort"]; ok {
			sortIdx = i
		}
		if _, ok := st["$skip"]; ok {
			skipIdx = i
		}
	}
	assert.Less(t, sortIdx, skipIdx)
}

func TestAllOrdersJoinsUserByConvertedID(t *testing.T) {
	pipe := AllOrders(0, 10)

	lookup := findStage(t, pipe, "$lookup")["$lookup"].(bson.M)
	assert.Equal(t, "users", lookup["from"])

	let := lookup["let"].(bson.M)
	assert.Equal(t, bson.M{"$toObjectId": "$id_user"}, let["user_id"])
}

func TestAllOrdersProjectsFlattenedShape(t *testing.T) {
	pipe := AllOrders(0, 10)

	project := findStage(t, pipe, "$project")["$project"].(bson.M)
	assert.Equal(t, bson.M{"$toString": "$_id"}, project["id"])
	assert.Contains(t, project, "user_name")
	assert.Contains(t, project, "total")
	assert.EqualValues(t, 0, project["_id"])
}

func TestOrdersByUserFiltersFirst(t *testing.T) {
	pipe := OrdersByUser("6650f0a1b2c3d4e5f6a7b8c9", 0, 10)

	require.NotEmpty(t, pipe)
	assert.Equal(t, bson.M{"id_user": "6650f0a1b2c3d4e5f6a7b8c9"}, pipe[0]["$match"])
}

func TestOrderByIDDenormalizes(t *testing.T) {
	oid := primitive.NewObjectID()
	pipe := OrderByID(oid)

	require.NotEmpty(t, pipe)
	assert.Equal(t, bson.M{"_id": oid}, pipe[0]["$match"])

	var froms []string
	for _, st := range pipe {
		if l, ok := st["$lookup"].(bson.M); ok {
			froms = append(froms, l["from"].(string))
		}
	}
	assert.Equal(t, []string{"users", "order_details", "order_status_record"}, froms)

	// Los detalles y el historial se reproyectan con $map a campos
	// whitelisteados.
	project := pipe[len(pipe)-1]["$project"].(bson.M)
	details := project["details"].(bson.M)["$map"].(bson.M)
	assert.Contains(t, details["in"].(bson.M), "id_producto")
	history := project["status_history"].(bson.M)["$map"].(bson.M)
	assert.Contains(t, history["in"].(bson.M), "id_status")
	assert.NotContains(t, history["in"].(bson.M), "id_order")
}

func TestValidateUserExistsIsMinimal(t *testing.T) {
	oid := primitive.NewObjectID()
	pipe := ValidateUserExists(oid)

	assert.Equal(t, bson.M{"_id": oid}, pipe[0]["$match"])
	assert.Equal(t, bson.M{"_id": 1}, pipe[1]["$project"])
	assert.EqualValues(t, 1, pipe[2]["$limit"])
}

func TestOrderOwnerProjectsOnlyOwner(t *testing.T) {
	oid := primitive.NewObjectID()
	pipe := OrderOwner(oid)

	assert.Equal(t, bson.M{"id_user": "$id_user"}, pipe[1]["$project"])
	assert.EqualValues(t, 1, pipe[2]["$limit"])
}

func TestExistingInProgressOrderTakesLatestRecord(t *testing.T) {
	pipe := ExistingInProgressOrder("6650f0a1b2c3d4e5f6a7b8c9")

	lookup := findStage(t, pipe, "$lookup")["$lookup"].(bson.M)
	assert.Equal(t, "order_status_record", lookup["from"])

	// El sub-pipeline del historial tiene que quedarse con EL MÁS
	// RECIENTE: orden descendente por fecha y límite 1. Con eso da
	// igual en qué orden se insertaron los registros.
	inner := lookup["pipeline"].([]bson.M)
	require.Len(t, inner, 3)
	assert.Equal(t, bson.M{"date": -1}, inner[1]["$sort"])
	assert.EqualValues(t, 1, inner[2]["$limit"])
}

func TestExistingInProgressOrderDropsOrdersWithoutHistory(t *testing.T) {
	pipe := ExistingInProgressOrder("6650f0a1b2c3d4e5f6a7b8c9")

	var found bool
	for _, st := range pipe {
		if m, ok := st["$match"].(bson.M); ok {
			if cond, ok := m["latest_status"].(bson.M); ok {
				assert.Equal(t, bson.M{"$exists": true}, cond)
				found = true
			}
		}
	}
	assert.True(t, found, "una orden sin historial no tiene estado actual")
}

func TestExistingInProgressOrderMatchesExactDescription(t *testing.T) {
	pipe := ExistingInProgressOrder("6650f0a1b2c3d4e5f6a7b8c9")

	var match bson.M
	for _, st := range pipe {
		if m, ok := st["$match"].(bson.M); ok {
			if _, ok := m["status_info.description"]; ok {
				match = m
			}
		}
	}
	require.NotNil(t, match)
	// Literal exacto, sin regex: "inprogress" con otra capitalización
	// no cuenta.
	assert.Equal(t, "inprogress", match["status_info.description"])
}

func TestExistingInProgressOrderDefaultsMoneyFields(t *testing.T) {
	pipe := ExistingInProgressOrder("6650f0a1b2c3d4e5f6a7b8c9")

	var project bson.M
	for _, st := range pipe {
		if p, ok := st["$project"].(bson.M); ok {
			project = p
		}
	}
	require.NotNil(t, project)
	for _, field := range []string{"subtotal", "taxes", "discount", "total"} {
		assert.Equal(t, bson.M{"$ifNull": bson.A{"$" + field, 0.0}}, project[field])
	}

	last := pipe[len(pipe)-1]
	assert.EqualValues(t, 1, last["$limit"], "devuelve a lo sumo una orden")
}
