package api

import (
	"net/http"

	"github.com/aapka-khata/backend/internal/auth"
	"github.com/aapka-khata/backend/internal/httputil"
	"github.com/aapka-khata/backend/internal/models"
	"github.com/aapka-khata/backend/pkg/budget"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RegisterExpenseRoutes registers the routes for expenses with
// the RouterGroup that is passed.
func (co Controller) RegisterExpenseRoutes(r *gin.RouterGroup) {
	gate := co.Auth.Gate()

	// Root group
	{
		r.OPTIONS("", OptionsExpenseList)
		r.GET("", gate, co.GetExpenses)
		r.OPTIONS("/add", OptionsExpenseAdd)
		r.POST("/add", gate, co.AddExpense)
	}

	// Expense with ID
	{
		r.OPTIONS("/:expenseId", OptionsExpenseDetail)
		r.PUT("/:expenseId", gate, co.UpdateExpense)
		r.DELETE("/:expenseId", gate, co.DeleteExpense)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Router			/api/expenses [options]
func OptionsExpenseList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Router			/api/expenses/add [options]
func OptionsExpenseAdd(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Param			expenseId	path	string	true	"ID of the expense"
// @Router			/api/expenses/{expenseId} [options]
func OptionsExpenseDetail(c *gin.Context) {
	httputil.OptionsPutDelete(c)
}

// @Summary		Add expense
// @Description	Records a new expense. Month and year are derived from the date.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		201		{object}	ExpenseResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		401		{object}	httputil.HTTPError
// @Failure		404		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			expense	body		ExpenseEditable	true	"Expense"
// @Router			/api/expenses/add [post]
func (co Controller) AddExpense(c *gin.Context) {
	fields, err := httputil.GetBodyFields(c, ExpenseEditable{})
	if err != nil {
		httpError(c, err)
		return
	}

	var data ExpenseEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		httpError(c, err)
		return
	}

	// An amount that was not sent is a missing field, not an invalid amount
	if !slices.Contains(fields, "Amount") {
		httpError(c, models.ErrFieldsRequired)
		return
	}

	expense, err := co.Ledger.AddExpense(c.Request.Context(), auth.UserID(c), data.input())
	if err != nil {
		httpError(c, err)
		return
	}

	apiResource := newExpense(expense)
	c.JSON(http.StatusCreated, ExpenseResponse{
		Message: "Expense added successfully.",
		Expense: &apiResource,
	})
}

// @Summary		List expenses
// @Description	Returns the expenses of the user, most recently added first, and a summary against the budget
// @Tags			Expenses
// @Produce		json
// @Success		200			{object}	ExpenseListResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		401			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			month		query		string	false	"Filter by month, e.g. March. Requires year"
// @Param			year		query		string	false	"Filter by year, e.g. 2024. Requires month"
// @Param			recipient	query		string	false	"Filter by recipient name with a glob pattern"
// @Router			/api/expenses [get]
func (co Controller) GetExpenses(c *gin.Context) {
	var filter ExpenseQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.ShouldBindQuery(&filter)

	listing, err := co.Ledger.ListExpenses(c.Request.Context(), auth.UserID(c), filter.filter())
	if err != nil {
		httpError(c, err)
		return
	}

	view := budget.Of(listing.Expenses, func(e models.Expense) decimal.Decimal { return e.Amount }, listing.Budget)

	expenses := make([]Expense, 0, len(listing.Expenses))
	for _, expense := range listing.Expenses {
		expenses = append(expenses, newExpense(expense))
	}

	c.JSON(http.StatusOK, ExpenseListResponse{
		Message:    "Expenses retrieved successfully.",
		Expenses:   expenses,
		Budget:     view.Budget,
		TotalSpent: view.TotalSpent,
		Balance:    view.Balance,
	})
}

// @Summary		Delete expense
// @Description	Permanently deletes an expense
// @Tags			Expenses
// @Produce		json
// @Success		200			{object}	MessageResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		401			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			expenseId	path		string	true	"ID of the expense"
// @Router			/api/expenses/{expenseId} [delete]
func (co Controller) DeleteExpense(c *gin.Context) {
	var uri URIExpenseID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		httpError(c, err)
		return
	}

	err = co.Ledger.DeleteExpense(c.Request.Context(), auth.UserID(c), uri.ExpenseID.UUID)
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: "Expense deleted successfully.",
	})
}

// @Summary		Update expense
// @Description	Update an existing expense. Only values to be updated need to be specified.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		200			{object}	ExpenseResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		401			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			expenseId	path		string			true	"ID of the expense"
// @Param			expense		body		ExpenseEditable	true	"Expense"
// @Router			/api/expenses/{expenseId} [put]
func (co Controller) UpdateExpense(c *gin.Context) {
	var uri URIExpenseID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		httpError(c, err)
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ExpenseEditable{})
	if err != nil {
		httpError(c, err)
		return
	}

	var data ExpenseEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		httpError(c, err)
		return
	}

	expense, err := co.Ledger.UpdateExpense(c.Request.Context(), auth.UserID(c), uri.ExpenseID.UUID, data.patch(updateFields))
	if err != nil {
		httpError(c, err)
		return
	}

	apiResource := newExpense(expense)
	c.JSON(http.StatusOK, ExpenseResponse{
		Message: "Expense updated successfully.",
		Expense: &apiResource,
	})
}
