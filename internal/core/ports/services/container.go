package services

// ServiceContainer holds the service facades handed to the HTTP layer.
type ServiceContainer struct {
	Loan      LoanSvcFacade
	LoanType  LoanTypeSvcFacade
	Repayment RepaymentSvcFacade
	Borrower  BorrowerSvcFacade
	User      UserSvcFacade
	Reporting ReportingSvcFacade
}
