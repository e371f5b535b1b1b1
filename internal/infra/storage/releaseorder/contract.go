package releaseorder

import "github.com/admedia/AMS-AdSalesService/pkg/dbmetrics"

// DBExecutor is the query surface repositories run on; the active transaction
// is picked up from context via dbmetrics.GetExecutor.
type DBExecutor = dbmetrics.DBExecutor
