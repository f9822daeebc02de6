// Команда seed наполняет хранилище CRM демонстрационными данными.
// Повторный запуск ничего не делает, если данные уже есть.
package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/app"
	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/service/mutation"
)

const seedTimeout = 60 * time.Second

type customerSeed struct {
	name    string
	email   string
	phone   string
	address string
}

type productSeed struct {
	name        string
	description string
	price       float64
	stock       int32
}

var customerSeeds = []customerSeed{
	{"John Doe", "john@example.com", "123-456-7890", "123 Main St, City, Country"},
	{"Jane Smith", "jane@example.com", "+1987654321", "456 Elm St, City, Country"},
	{"Bob Johnson", "bob@example.com", "555-123-4567", "789 Oak St, City, Country"},
}

var productSeeds = []productSeed{
	{"Laptop", "High-performance laptop with 16GB RAM", 999.99, 10},
	{"Smartphone", "Latest smartphone with 128GB storage", 699.99, 15},
	{"Headphones", "Noise-canceling wireless headphones", 149.99, 20},
	{"Monitor", "27-inch 4K monitor", 349.99, 8},
	{"Keyboard", "Mechanical gaming keyboard", 89.99, 12},
}

func main() {
	_ = godotenv.Load()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger := log.WithField("component", "seed")

	cfg := app.ConfigFromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize storage")
	}
	defer deps.Close()

	if hasData(logger, deps) {
		logger.Info("database already contains data, skipping seeding")
		return
	}

	mutations := mutation.NewService(deps.Customers, deps.Products, deps.Orders)

	customers := seedCustomers(ctx, logger, mutations)
	products := seedProducts(ctx, logger, mutations)
	orders := seedOrders(ctx, logger, mutations, customers, products)

	logger.WithFields(log.Fields{
		"customers": len(customers),
		"products":  len(products),
		"orders":    len(orders),
	}).Info("database seeding completed")
}

// hasData проверяет, наполнено ли хранилище. Сидирование пропускается,
// только если заполнены все три коллекции.
func hasData(logger *log.Entry, deps *app.Dependencies) bool {
	customerCount, err := deps.Customers.Count()
	if err != nil {
		logger.WithError(err).Fatal("failed to count customers")
	}
	productCount, err := deps.Products.Count()
	if err != nil {
		logger.WithError(err).Fatal("failed to count products")
	}
	orderCount, err := deps.Orders.Count()
	if err != nil {
		logger.WithError(err).Fatal("failed to count orders")
	}
	return customerCount > 0 && productCount > 0 && orderCount > 0
}

func seedCustomers(ctx context.Context, logger *log.Entry, mutations *mutation.Service) []domain.Customer {
	created := make([]domain.Customer, 0, len(customerSeeds))
	for _, seed := range customerSeeds {
		res, err := mutations.CreateCustomer(ctx, mutation.CreateCustomerInput{
			Name:    seed.name,
			Email:   seed.email,
			Phone:   seed.phone,
			Address: seed.address,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to create customer")
		}
		if res.Customer == nil {
			logger.WithField("email", seed.email).Infof("customer already exists: %s", seed.name)
			continue
		}
		logger.Infof("created customer: %s", res.Customer.Name)
		created = append(created, *res.Customer)
	}
	return created
}

func seedProducts(ctx context.Context, logger *log.Entry, mutations *mutation.Service) []domain.Product {
	created := make([]domain.Product, 0, len(productSeeds))
	for _, seed := range productSeeds {
		stock := seed.stock
		product, err := mutations.CreateProduct(ctx, mutation.CreateProductInput{
			Name:        seed.name,
			Description: seed.description,
			Price:       seed.price,
			Stock:       &stock,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to create product")
		}
		logger.Infof("created product: %s ($%.2f)", product.Name, product.Price())
		created = append(created, product)
	}
	return created
}

// seedOrders создаёт по 1-2 заказа на клиента, в каждом 1-3 случайных товара.
func seedOrders(ctx context.Context, logger *log.Entry, mutations *mutation.Service, customers []domain.Customer, products []domain.Product) []domain.Order {
	if len(customers) == 0 || len(products) == 0 {
		logger.Warn("cannot create orders: no customers or products available")
		return nil
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	created := make([]domain.Order, 0, 2*len(customers))

	for _, customer := range customers {
		numOrders := 1 + rng.Intn(2)
		for i := 0; i < numOrders; i++ {
			numProducts := 1 + rng.Intn(3)
			if numProducts > len(products) {
				numProducts = len(products)
			}
			picked := rng.Perm(len(products))[:numProducts]

			productIDs := make([]string, 0, numProducts)
			for _, idx := range picked {
				productIDs = append(productIDs, products[idx].ID)
			}

			order, err := mutations.CreateOrder(ctx, mutation.CreateOrderInput{
				CustomerID: customer.ID,
				ProductIDs: productIDs,
			})
			if err != nil {
				logger.WithError(err).Fatal("failed to create order")
			}
			logger.Infof("created order %s for %s with %d products", order.ID, customer.Name, len(order.Items))
			created = append(created, order)
		}
	}
	return created
}
