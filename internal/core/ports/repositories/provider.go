package repositories

// RepositoryProvider bundles the concrete repositories handed to the service
// layer at startup.
type RepositoryProvider struct {
	LoanRepo      LoanRepositoryWithTx
	LoanTypeRepo  LoanTypeRepositoryFacade
	RepaymentRepo RepaymentRepositoryWithTx
	BorrowerRepo  BorrowerRepositoryFacade
	UserRepo      UserRepositoryFacade
	AuditRepo     AuditLogRepositoryFacade
	ReportingRepo ReportingRepositoryFacade
}
