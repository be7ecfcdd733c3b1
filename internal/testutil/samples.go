package testutil

// Sample statement pages, one per supported issuer. Each one carries a
// consistent summary so that totals cross-check cleanly.

func HDFCStatement() []string {
	return []string{
		"HDFC Bank Credit Cards",
		"Regalia Credit Card Statement",
		"Name : ANANYA SHARMA",
		"Card No: 4375 XXXX XXXX 1234",
		"Statement Date: 15/02/2024",
		"Billing Period: 16/01/2024 - 15/02/2024",
		"Payment Due Date: 05/03/2024",
		"Credit Limit: 1,50,000.00",
		"Available Credit Limit: 1,48,950.50",
		"Total Dues: 1,049.50",
		"Minimum Amount Due: 100.00",
		"Account Summary",
		"Opening Balance  Payment/Credits  Purchase/Debits  Finance Charges  Total Dues",
		"0.00  500.00  1,549.50  0.00  1,049.50",
		"Domestic Transactions",
		"Date  Transaction Description  Amount (in Rs.)",
		"01/02/2024  AMAZON PAY INDIA MUMBAI  1,200.50",
		"03/02/2024  SWIGGY BANGALORE  349.00",
		"10/02/2024  PAYMENT RECEIVED - THANK YOU  500.00 Cr",
		"International Transactions",
		"Date  Transaction Description  Amount (in Rs.)",
		"Reward Points Summary",
	}
}

func ICICIStatement() []string {
	return []string{
		"ICICI Bank",
		"Credit Card Statement",
		"Coral Credit Card",
		"Card Number: 4315XXXXXXXX5678",
		"Statement Date: March 5, 2024",
		"Statement Period: February 6, 2024 to March 5, 2024",
		"Payment Due Date: March 23, 2024",
		"Total Amount Due: Rs. 2,850.00",
		"Minimum Amount Due: Rs. 150.00",
		"Credit Limit: Rs. 2,00,000.00",
		"Previous Balance: Rs. 1,000.00",
		"Date  SerNo.  Transaction Details  Reward Points  Amount (in Rs.)",
		"07/02/2024  8812345671  FLIPKART INTERNET BANGALORE  25  2,500.00",
		"12/02/2024  8812345672  ZOMATO ORDER  7  350.00",
		"20/02/2024  8812345673  BBPS PAYMENT RECEIVED  0  1,000.00 CR",
		"Page 1 of 1",
	}
}

func AxisStatement() []string {
	return []string{
		"AXIS BANK",
		"Axis Bank Credit Card Statement",
		"Card No: 5334XXXXXXXX9012",
		"Statement Generation Date: 11/02/2024",
		"Statement Period: 12/01/2024 - 11/02/2024",
		"Payment Due Date: 01/03/2024",
		"Credit Limit: 75,000.00",
		"Total Payment Due: 3,440.00 Dr",
		"Minimum Payment Due: 200.00 Dr",
		"Previous Balance: 500.00 Dr",
		"DATE  TRANSACTION DETAILS  MERCHANT CATEGORY  AMOUNT (Rs.)",
		"14/01/2024  UBER INDIA SYSTEMS PVT  TRAVEL  450.00 Dr",
		"LTD BANGALORE",
		"20/01/2024  BIGBASKET  GROCERY  3,490.00 Dr",
		"28/01/2024  PAYMENT RECEIVED BILLDESK  MISC  1,000.00 Cr",
		"**** End of Statement ****",
	}
}

func ChaseStatement() []string {
	return []string{
		"Chase Freedom Unlimited",
		"JPMorgan Chase Bank, N.A.",
		"Manage your account online at www.chase.com",
		"ACCOUNT SUMMARY",
		"Account Number: XXXX XXXX XXXX 4321",
		"Previous Balance $500.00",
		"Payment, Credits -$500.00",
		"Purchases +$1,234.56",
		"Cash Advances $0.00",
		"Fees Charged $0.00",
		"Interest Charged $0.00",
		"New Balance $1,234.56",
		"Opening/Closing Date 12/15/23 - 01/14/24",
		"Credit Access Line $5,000",
		"Available Credit $3,765",
		"Payment Due Date: 02/08/24",
		"Minimum Payment Due: $40.00",
		"ACCOUNT ACTIVITY",
		"Date of Transaction  Merchant Name or Transaction Description  $ Amount",
		"PAYMENTS AND OTHER CREDITS",
		"12/20  Payment Thank You-Mobile  -500.00",
		"PURCHASE",
		"12/28  AMAZON MKTPL*AB12CD34 Amzn.com/bill WA  34.56",
		"01/03  STARBUCKS STORE 12345 SEATTLE WA  1,200.00",
		"Total fees charged in 2024 $0.00",
	}
}

func IDFCStatement() []string {
	return []string{
		"IDFC FIRST Bank",
		"Credit Card Statement",
		"FIRST Millennia Credit Card",
		"Card Number: XXXX XXXX XXXX 3456",
		"Statement Date: 18 Feb 2024",
		"Statement Period: 19 Jan 2024 - 18 Feb 2024",
		"Payment Due Date: 04 Mar 2024",
		"Total Amount Due: INR 5,620.00",
		"Minimum Amount Due: INR 281.00",
		"Credit Limit: INR 1,00,000.00",
		"Opening Balance: INR 2,000.00",
		"Purchases & Debits: INR 5,620.00",
		"Payments & Credits: INR 2,000.00",
		"YOUR TRANSACTIONS",
		"Transaction Date  Transaction Details  FX Transactions  Amount (in INR)",
		"22 Jan 2024  NETFLIX.COM LOS GATOS  USD 9.99  830.00 DR",
		"Convert to EMI",
		"28 Jan 2024  PAYMENT RECEIVED - NEFT  2,000.00 CR",
		"02 Feb 2024  BLINKIT GURGAON  4,790.00 DR",
		"Convert to EMI",
	}
}

// UnknownIssuerStatement looks like a card statement but matches no
// supported issuer.
func UnknownIssuerStatement() []string {
	return []string{
		"Acme Savings Bank",
		"Credit Card Statement",
		"Statement Date: 15/02/2024",
		"Statement Period: 16/01/2024 - 15/02/2024",
		"Total Amount Due: 100.00",
		"01/02/2024  SOMETHING  100.00",
	}
}
