package gateway

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"powercalc/backend/libs/models"
)

// SaveLoginAlert is shown when an anonymous visitor tries to save.
const SaveLoginAlert = "You must be logged in to save calculations"

// SaveCalculation stores one calculation for the signed-in user. Inputs are
// form values and go through ParseDecimal; unparsable values are sent as
// null and left to the backend. A nil error means saved.
func (g *Gateway) SaveCalculation(ctx context.Context, hours, power, costPerKwh, totalCost string) error {
	b, err := g.client()
	if err != nil {
		return err
	}

	session, user, err := g.authenticated(ctx)
	if err != nil {
		f := classify(err)
		f.UserMessage = SaveLoginAlert
		return f
	}
	if user == nil {
		return notAuthenticated(SaveLoginAlert)
	}

	row := models.NewCalculation{
		UserID:     user.ID,
		Hours:      models.Decimal(ParseDecimal(hours)),
		Power:      models.Decimal(ParseDecimal(power)),
		CostPerKWh: models.Decimal(ParseDecimal(costPerKwh)),
		TotalCost:  models.Decimal(ParseDecimal(totalCost)),
	}

	if err := b.Store.Insert(ctx, session.AccessToken, row); err != nil {
		f := classify(err)
		g.logger.Error("error saving calculation", zap.String("kind", f.Kind.String()), zap.String("user_id", user.ID), zap.Error(err))
		return f
	}

	g.logger.Debug("calculation saved", zap.String("user_id", user.ID))
	return nil
}

// FetchCalculations lists the signed-in user's calculations, newest first.
// The slice is never nil, also when an error is returned.
func (g *Gateway) FetchCalculations(ctx context.Context) ([]models.Calculation, error) {
	empty := []models.Calculation{}

	b, err := g.client()
	if err != nil {
		return empty, err
	}

	session, user, err := g.authenticated(ctx)
	if err != nil {
		return empty, err
	}
	if user == nil {
		return empty, notAuthenticated("")
	}

	rows, err := b.Store.ListByUser(ctx, session.AccessToken, user.ID)
	if err != nil {
		f := classify(err)
		g.logger.Error("error fetching calculations", zap.String("kind", f.Kind.String()), zap.String("user_id", user.ID), zap.Error(err))
		return empty, f
	}
	if rows == nil {
		return empty, nil
	}

	slices.SortStableFunc(rows, func(x, y models.Calculation) int {
		return y.CreatedAt.Compare(x.CreatedAt)
	})
	return rows, nil
}
