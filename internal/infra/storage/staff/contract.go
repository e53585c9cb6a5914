package staff

import "github.com/Ramses120/Copper-Salon-sub000/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
