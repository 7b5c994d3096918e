package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tasker-cli/tasker/internal/date"
	"github.com/tasker-cli/tasker/internal/output"
	"github.com/tasker-cli/tasker/internal/store"
	"github.com/tasker-cli/tasker/internal/task"
)

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Record and list expenses",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add DESCRIPTION",
	Short: "Record an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpenseAdd,
}

var expenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses, most recent first",
	RunE:  runExpenseList,
}

func init() {
	expenseAddCmd.Flags().Float64P("amount", "a", 0, "amount spent (required)")
	_ = expenseAddCmd.MarkFlagRequired("amount")
	expenseAddCmd.Flags().StringP("category", "c", "", "expense category (free-form)")
	expenseAddCmd.Flags().String("receipt", "", "path to a receipt file")
	expenseAddCmd.Flags().StringP("date", "d", "", "expense date (YYYY-MM-DD)")
	expenseCmd.AddCommand(expenseAddCmd)
	expenseCmd.AddCommand(expenseListCmd)
	rootCmd.AddCommand(expenseCmd)
}

func runExpenseAdd(cmd *cobra.Command, args []string) error {
	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	e := store.Expense{Description: args[0]}
	e.Amount, _ = cmd.Flags().GetFloat64("amount")
	e.Category, _ = cmd.Flags().GetString("category")
	e.ReceiptPath, _ = cmd.Flags().GetString("receipt")

	if ds, _ := cmd.Flags().GetString("date"); ds != "" {
		d, err := date.Parse(ds)
		if err != nil {
			return task.ValidateDate("expense", ds, err)
		}
		e.Date = &d
	}

	id, err := st.AddExpense(e)
	if err != nil {
		return err
	}
	logActivity(cfg, "expense-add", 0, e.Description)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"id": id, "description": e.Description, "amount": e.Amount})
	}
	output.Messagef(os.Stdout, "Recorded expense #%d: %s (%.2f)", id, e.Description, e.Amount)
	return nil
}

func runExpenseList(_ *cobra.Command, _ []string) error {
	_, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	expenses, err := st.Expenses()
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		if expenses == nil {
			expenses = []*store.Expense{}
		}
		return output.JSON(os.Stdout, expenses)
	}
	output.ExpenseTable(os.Stdout, expenses)
	return nil
}
