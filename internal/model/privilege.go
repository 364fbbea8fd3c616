package model

// Privilege represents a permission that can be assigned to roles and users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "operation:create"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivProductCreate   = "product:create"
	PrivProductUpdate   = "product:update"
	PrivProductDelete   = "product:delete"
	PrivBatchCreate     = "batch:create"
	PrivSupplierWrite   = "supplier:write"
	PrivPlotWrite       = "plot:write"
	PrivOperationCreate = "operation:create"
	PrivOperationUpdate = "operation:update"
	PrivOperationDelete = "operation:delete"
	PrivHarvestCreate   = "harvest:create"
	PrivReportExport    = "report:export"
)

var DefaultPrivileges = []Privilege{
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivProductDelete, Name: "Delete Product"},
	{Code: PrivBatchCreate, Name: "Create Batch"},
	{Code: PrivSupplierWrite, Name: "Manage Suppliers"},
	{Code: PrivPlotWrite, Name: "Manage Plots"},
	{Code: PrivOperationCreate, Name: "Record Operation"},
	{Code: PrivOperationUpdate, Name: "Edit Operation"},
	{Code: PrivOperationDelete, Name: "Delete Operation"},
	{Code: PrivHarvestCreate, Name: "Record Harvest"},
	{Code: PrivReportExport, Name: "Export Reports"},
}
