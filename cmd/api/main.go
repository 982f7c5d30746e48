package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"samaka/internal/config"
	"samaka/internal/domain/model"
	"samaka/internal/handler"
	"samaka/internal/infra/db"
	infraRepo "samaka/internal/infra/repository"
	"samaka/internal/mpesa"
	"samaka/internal/server"
	"samaka/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type orderNumberGenerator struct{}

func (g *orderNumberGenerator) NewOrderNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "ORD-" + id[:10]
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(user model.User, now time.Time) (string, int, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", 0, err
	}

	return signed, int(i.accessTTL.Seconds()), nil
}

// mpesa.Clientをusecaseの約束に合わせる
type mpesaGateway struct {
	client *mpesa.Client
}

func (g *mpesaGateway) InitiateCharge(ctx context.Context, req usecase.ChargeRequest) (usecase.ChargeResponse, error) {
	resp, err := g.client.StkPush(ctx, mpesa.StkPushRequest{
		Amount:            req.Amount,
		PhoneNumber:       req.PhoneNumber,
		AccountReference:  req.AccountReference,
		TransactionDesc:   req.Description,
		PaymentType:       req.PaymentType,
		ShortcodeOverride: req.ShortcodeOverride,
	})
	if err != nil {
		return usecase.ChargeResponse{}, err
	}
	return usecase.ChargeResponse{
		MerchantRequestID: resp.MerchantRequestID,
		CheckoutRequestID: resp.CheckoutRequestID,
	}, nil
}

func main() {
	// .envがあれば読み込む
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	feeRate, err := usecase.ParseFeeRate(cfg.PlatformFeePercent)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.FishermanProfile{},
		&model.Fish{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.PaymentTransaction{},
		&model.PhoneVerificationTransaction{},
		&model.Delivery{},
		&model.DeliveryAuditLog{},
		&model.FishTransactionLog{},
		&model.SellerNotification{},
		&model.PlatformFeeLog{},
		&model.PickupPoint{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	notificationRepo := infraRepo.NewNotificationGormRepository(gormDB)
	pickupRepo := infraRepo.NewPickupPointGormRepository(gormDB)

	//usecaseに渡す部品
	gateway := &mpesaGateway{client: mpesa.NewClient(cfg.Mpesa)}
	orderNo := &orderNumberGenerator{}
	clock := &realClock{}
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 24 * time.Hour,
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, issuer, clock)
	cartUC := usecase.NewCartUsecase(txManager)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, gateway, orderNo, pickupRepo, feeRate)
	orderUC := usecase.NewOrderUsecase(txManager)
	reconcileUC := usecase.NewReconcileUsecase(txManager)
	fulfillmentUC := usecase.NewFulfillmentUsecase(txManager)
	deliveryUC := usecase.NewDeliveryUsecase(txManager)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo)
	verificationUC := usecase.NewVerificationUsecase(txManager, gateway)
	pickupUC := usecase.NewPickupPointUsecase(pickupRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:        handler.NewAuthHandler(authUC),
		Cart:        handler.NewCartHandler(cartUC),
		Checkout:    handler.NewCheckoutHandler(checkoutUC),
		Order:       handler.NewOrderHandler(orderUC, deliveryUC),
		Callback:    handler.NewMpesaCallbackHandler(reconcileUC),
		Fisherman:   handler.NewFishermanHandler(fulfillmentUC, notificationUC, verificationUC),
		Delivery:    handler.NewDeliveryHandler(deliveryUC),
		PickupPoint: handler.NewPickupPointHandler(pickupUC),
	}

	//Server起動
	e := server.New(cfg, handlers)
	if err := server.Start(e, cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
